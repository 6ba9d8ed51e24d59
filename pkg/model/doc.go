// Package model defines the field descriptors consumed by field handlers,
// the binder and the widget renderer. Descriptors are owned by the form layer
// and treated as read-only everywhere else. Field types are plain strings so
// handler registries can route the JSON-schema style primitives (string,
// integer, ...) and the localized text kinds (I18nText, I18nTextArea) through
// the same lookup.
package model
