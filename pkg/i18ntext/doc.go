// Package i18ntext models internationalized text values: a Set of per-locale
// strings that form one logical field value. Sets keep insertion order so
// JSON/YAML snapshots and rendered controls stay deterministic.
package i18ntext
