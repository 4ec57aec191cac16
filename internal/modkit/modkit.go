// Package modkit wires feature modules: shared deps, build options and the module contract
package modkit

import "zhkh/internal/modkit/module"

// Module is the contract every feature module satisfies
type Module = module.Module

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module
