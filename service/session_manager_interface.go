package service

// SessionManagerInterface defines the contract for design session lookup and lifecycle
type SessionManagerInterface interface {
	Create() (*DesignSession, error)
	Get(id string) (*DesignSession, error)
	Delete(id string) bool
}
