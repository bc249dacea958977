package modkit

// Module is the common surface for tool modules that expose ports
// keep this tiny so modules stay decoupled
type Module interface {
	// Name returns the module name used in logs
	Name() string
	// Ports returns a module specific port set for cross wiring
	Ports() any
}

// Builder constructs a Module from shared deps and options
// modules typically expose New(deps Deps, opts ...Option) Module and may delegate to this pattern
type Builder func(Deps, ...Option) Module
