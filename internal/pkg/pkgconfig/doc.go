// Package pkgconfig provides a small abstraction for reading configuration values.
//
// The application depends on the Config interface; Viper implements it by
// reading a YAML file with defaults and environment overrides (STORE_DSN
// overrides store.dsn). Besides scalar getters it decodes durations such as
// "10m" and base64 binary values.
package pkgconfig
