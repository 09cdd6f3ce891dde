package ws

const (
	FeedSnapshot  = "feed.snapshot"
	PresenceCount = "presence.count"

	ErrorEvent      = "error"
	SubscribeFailed = "error.subscribe"
	PresenceFailed  = "error.presence"
)
