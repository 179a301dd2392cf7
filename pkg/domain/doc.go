// Package domain contains the entities persisted by the message outbox. They
// are free of storage and transport concerns so they can be shared between
// the notifier, the storage backends and the admin API.
package domain
