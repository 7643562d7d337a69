package relay

// User-visible texts. Exactly three outward failure messages exist;
// internal error detail stays in the logs.
const (
	msgInvalidLink    = "❌ Invalid link. Please send me a TikTok link."
	msgProcessing     = "⏳ Processing link..."
	msgDownloadFailed = "❌ Download failed. The link may be invalid, private, or the format is not supported."
	msgSending        = "✅ Download complete! Sending..."
	msgGenericError   = "❌ Something went wrong. Please try again."
)
