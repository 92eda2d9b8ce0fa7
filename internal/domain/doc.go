// Package domain contains shared domain types used across entity sub-packages.
// Entity-specific types live in sub-packages (domain/project, domain/sprint,
// domain/story, domain/task, domain/user). This root package holds sentinel
// errors, validation types, and the patch primitives shared by all update
// operations.
package domain
