// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Cache TTLs are expressed per category; unset values fall back to the
// defaults the maintenance and planning layers were tuned against.
package config
