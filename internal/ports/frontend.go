package ports

// Frontend is an entry point that receives classification requests
type Frontend interface {
	// Start starts the front-end in the background
	Start() error

	// Stop stops the front-end
	Stop() error
}
