// Package locale resolves the default and supported locales of a form and
// provides the localized validation messages emitted while binding
// submissions.
package locale
