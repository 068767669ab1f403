// Package production provides production integrations for forms:
// snapshot persistence, change publishing, metrics and visualization.
package production
