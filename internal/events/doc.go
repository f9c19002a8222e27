// Package events provides in-process lifecycle events for generation
// runs. The orchestrator emits completion, failure, and credit
// reconciliation events without knowing which handlers observe them; a
// logging handler is registered at startup so every event leaves a
// structured-log trace, and additional handlers (metrics, webhooks) can
// be registered without touching the emitting code.
package events
