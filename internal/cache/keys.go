package cache

import "fmt"

// AudioKey embeds the full text to keep the memoization contract exact:
// only the identical text reuses a synthesized result.
func AudioKey(text string) string {
	return "tts:" + text
}

func RateLimitKey(clientKey string) string {
	return fmt.Sprintf("ratelimit:%s", clientKey)
}
