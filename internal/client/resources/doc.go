// Package resources binds the generic collection engine to the eight REST
// resources of the admin API and groups them into Store, the state container
// injected into the console.
package resources
