// Package reply describes what the attendant sends back to a caller.
package reply

// Kind tags the reply variant.
type Kind string

const (
	KindText     Kind = "text"
	KindMedia    Kind = "media"
	KindRedirect Kind = "redirect"
)

// TargetMenu is the only redirect target: re-render the idle menu.
const TargetMenu = "menu"

// Reply is the descriptor handed to the inbound transport.
type Reply struct {
	Kind     Kind   `json:"kind"`
	Body     string `json:"body,omitempty"`
	MediaURL string `json:"media_url,omitempty"`
	Target   string `json:"target,omitempty"`
}

func Text(body string) Reply {
	return Reply{Kind: KindText, Body: body}
}

func Media(body, mediaURL string) Reply {
	return Reply{Kind: KindMedia, Body: body, MediaURL: mediaURL}
}

// Redirect asks the host to show the main menu.
func Redirect() Reply {
	return Reply{Kind: KindRedirect, Target: TargetMenu}
}

// IsZero reports whether r carries nothing to send.
func (r Reply) IsZero() bool {
	return r.Kind == ""
}
