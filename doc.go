// Package main provides the entry point of GoAbsensi, the attendance and HR
// backend of a school. It serves a JSON API with fiber, stores data with gorm
// and authorizes every request with role based permissions that can be granted
// or revoked per user.
package main
