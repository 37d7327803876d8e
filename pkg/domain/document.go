package domain

// Document represents an arbitrary structured payload exchanged with the backend
type Document map[string]interface{}
