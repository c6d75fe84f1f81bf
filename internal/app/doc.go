// Package app contains the core application logic: the App struct, its
// configuration, and the batch processing lifecycle, decoupled from any
// specific entrypoint like a CLI.
package app
