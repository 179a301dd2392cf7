package event

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"net/http"

	"openlark/pkg/serrors"
)

// Headers carrying the callback signature.
const (
	HeaderRequestTimestamp = "X-Lark-Request-Timestamp"
	HeaderRequestNonce     = "X-Lark-Request-Nonce"
	HeaderSignature        = "X-Lark-Signature"
)

// Decrypt opens an encrypted callback body. The key is sha256(encryptKey),
// the payload is base64(iv || AES-256-CBC(plaintext)) with PKCS#7 padding.
func Decrypt(encrypted, encryptKey string) ([]byte, error) {
	buf, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not decode encrypted event")
	}
	if len(buf) < 2*aes.BlockSize || len(buf)%aes.BlockSize != 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "encrypted event has invalid length %d", len(buf))
	}

	key := sha256.Sum256([]byte(encryptKey))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not create cipher")
	}

	iv, data := buf[:aes.BlockSize], buf[aes.BlockSize:]
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(data, data)

	return unpad(data)
}

func unpad(data []byte) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, serrors.With(serrors.ErrBadRequest, "could not decrypt event: bad padding")
	}
	if !bytes.Equal(data[len(data)-n:], bytes.Repeat([]byte{byte(n)}, n)) {
		return nil, serrors.With(serrors.ErrBadRequest, "could not decrypt event: bad padding")
	}

	return data[:len(data)-n], nil
}

// Signature computes hex(sha256(timestamp + nonce + encryptKey + body)).
func Signature(timestamp, nonce, encryptKey string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(timestamp + nonce + encryptKey))
	h.Write(body)

	return hex.EncodeToString(h.Sum(nil))
}

func verifySignature(header http.Header, encryptKey string, body []byte) error {
	got := header.Get(HeaderSignature)
	if got == "" {
		return serrors.With(serrors.ErrUnauthorized, "missing %s header", HeaderSignature)
	}

	want := Signature(header.Get(HeaderRequestTimestamp), header.Get(HeaderRequestNonce), encryptKey, body)
	if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		return serrors.With(serrors.ErrUnauthorized, "event signature mismatch")
	}

	return nil
}
