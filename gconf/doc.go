/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension keeps a single configuration entity under a key derived from
its package name. Configuration is loaded from the genesis file with
InitConfig and can later be changed by the configuration owner using a
message processed by UpdateConfigurationHandler.
*/
package gconf
