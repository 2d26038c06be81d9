/*
Package session implements session management and persistence orchestration.

A Manager serializes access to each session ID with a reference-counted local
lock, optionally backed by a distributed lock so several replicas can serve the
same sessions from a shared store.
*/
package session
