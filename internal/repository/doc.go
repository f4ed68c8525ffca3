// Package repository holds the repository data model: the [Repository]
// record, the [ServerType] enumeration, the grouped [Collection] and the
// YAML codec for the nested on-disk form.
//
// # Nested Form
//
// A repos file is a mapping. Each top-level key is either a repository
// (placed in the "default" group) or a group block whose values are
// repositories:
//
//	api:
//	  url: https://github.com/org/api.git
//	  server: github
//	  path: /src/api
//	  defaultBranch: main
//	infra:
//	  terraform:
//	    url: git@gitlab.com:org/terraform.git
//	    server: gitlab
//	    path: /src/terraform
//	    defaultBranch: master
//
// A value is a group block iff every value one level down is itself a
// mapping. [Marshal] writes default-group repositories first, then every
// non-empty group in first-insertion order, so [Unmarshal] of the output
// yields the same (name, group, fields) triples.
package repository
