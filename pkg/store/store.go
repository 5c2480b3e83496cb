// Package store defines the persistence interfaces of taskmill. Every method
// takes a db.Handler so callers decide the transaction boundary.
package store

// Store is an interface for managing webhooks, delivery logs, and the
// entities that emit webhook events.
type Store interface {
	WebhookStore
	WebhookLogStore
	UserStore
	RoleStore
	ProjectStore
	TaskStore
}
