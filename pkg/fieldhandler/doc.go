// Package fieldhandler translates between request parameters and typed field
// values. Each Handler declares the field types it can produce; a Registry
// routes fields to handlers by type.
//
// I18nTextHandler maps a localized value onto one parameter per locale
// ("title_en", "title_fr") plus a bare "title" marker emitted on encode so
// callers can tell a cleared field from one that was never submitted.
package fieldhandler
