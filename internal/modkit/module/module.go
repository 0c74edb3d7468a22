// Package module holds the cross-module port registry and typed port lookups
package module

import "textguard/internal/modkit"

// Module is modkit.Module, re-exported so lookups read module.PortsOf[T](m)
type Module = modkit.Module
