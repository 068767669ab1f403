// Package extensibility provides validators, submit decorators and edit
// sources that plug into a form without touching the engine.
package extensibility
