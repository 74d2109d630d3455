package mailrepo

import "context"

type SendReq struct {
	To      string
	Subject string
	Body    string
}

// Repo is the notification-dispatch collaborator. Delivery failures are
// reported, never fatal to the calling flow.
type Repo interface {
	Send(ctx context.Context, req SendReq) error
}
