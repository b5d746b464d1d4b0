// Package containerconfig provides the configuration used when translating
// aws api gateway proxy events into http requests: base path mapping and
// stripping, the charset used to decode request paths, Set-Cookie header
// consolidation and whether the stage name is reported as the context root.
//
// Configurations are immutable once built. Use Default for the defaults, New
// with options for code based setup, or one of the loaders (FromMap,
// FromStageVariables, FromEnvironment, ParameterStoreLoader) to read the
// values from outside the binary.
package containerconfig
