// Package modkit wires service modules onto the API router
package modkit

import "capturebox/internal/modkit/module"

// Module is the surface every service module exposes to the API mount
type Module = module.Module

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module
