// Package config provides centralized timeout constants for the application.
//
// The dialogue engine waits synchronously for every action call, so the
// budgets below are sized so that a slow inventory backend surfaces as a
// localized error reply instead of an engine-side timeout.
package config

import "time"

// Action timeouts
const (
	// ActionProcessing bounds a whole action run, including up to three
	// backend calls (sales report).
	ActionProcessing = 20 * time.Second

	// BackendRequest bounds a single call against the inventory REST API.
	BackendRequest = 10 * time.Second
)

// HTTP server timeouts
const (
	// ServerHTTPRead is the HTTP server read timeout for action calls.
	// Tracker payloads can carry the full event history.
	ServerHTTPRead = 10 * time.Second

	// ServerHTTPWriteMargin is the time left to write a reply after the
	// action timeout has elapsed.
	ServerHTTPWriteMargin = 5 * time.Second

	// ServerHTTPWrite must exceed the action timeout so a finished action can
	// still write its reply.
	ServerHTTPWrite = ActionProcessing + ServerHTTPWriteMargin

	// ServerHTTPIdle is the keep-alive idle timeout.
	ServerHTTPIdle = 120 * time.Second
)

// Background and maintenance
const (
	// RateLimiterCleanupInterval controls how often idle per-sender buckets are dropped.
	RateLimiterCleanupInterval = 5 * time.Minute

	// ReadinessCheckTimeout bounds the backend reachability probe in /readyz.
	ReadinessCheckTimeout = 3 * time.Second

	// SentryFlushTimeout bounds how long shutdown waits for buffered events.
	SentryFlushTimeout = 2 * time.Second
)
