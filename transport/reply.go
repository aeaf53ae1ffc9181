package transport

const (
	// ErrorPrefix marks replies synthesized from a failed call
	ErrorPrefix = "(Error) "
	// EmptyReply stands in for a missing or empty reply field
	EmptyReply = "…"
)

// ReplyText turns the outcome of one chat call into the text that gets
// revealed. All failures share one bucket: the error text behind
// ErrorPrefix. It never fails.
func ReplyText(resp *ChatResponse, err error) string {
	if err != nil {
		return ErrorPrefix + err.Error()
	}
	if resp == nil || resp.Reply == "" {
		return EmptyReply
	}
	return resp.Reply
}
