package realtime

// Broker destinations. Subscriptions live under /topic and /queue; client
// publishes go to application destinations under /app.

// NotificationsTopic is the per-user notification feed.
func NotificationsTopic(userID string) string {
	return "/topic/notifications/" + userID
}

// UserQueueTopic is the per-user direct-message queue.
func UserQueueTopic(userID string) string {
	return "/queue/user/" + userID
}

// GroupTopic is a group's chat room feed.
func GroupTopic(groupID string) string {
	return "/topic/group/" + groupID
}

// GroupTypingTopic is a group's typing-indicator side channel.
func GroupTypingTopic(groupID string) string {
	return GroupTopic(groupID) + "/typing"
}

// GroupTypingDest is the application destination for publishing a typing
// event. Group messages themselves go over REST; the topic echo delivers
// them back.
func GroupTypingDest(groupID string) string {
	return "/app/group/" + groupID + "/typing"
}
