// Package writer wraps the external content generation service.
//
// The client exposes the four pipeline calls in the order the engine runs
// them: StartWorkflow, GenerateArticle, GenerateFeaturedImage, Publish. Each
// call is a JSON POST with bearer auth and a per-request timeout; transient
// failures (408, 429, 5xx, network timeouts) retry with exponential backoff
// and honor Retry-After. Anything else surfaces immediately so the engine can
// decide whether the step was fatal or best-effort.
//
// The HTTP client and retry sleeper are injectable so tests can run against
// httptest servers without real delays.
package writer
