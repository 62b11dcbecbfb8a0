// Package credits meters article generation against per-owner allotments.
//
// An account tracks how many completions the owner's plan includes and how
// many have been used. The derived balance floors at zero so overshoot from
// in-flight work never shows as negative. Exempt-tier owners bypass metering
// entirely: admission always passes and Charge never increments their usage.
package credits
