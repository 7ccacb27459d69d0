package pkg

import (
	"net/http"
	"time"
)

// HTTPClient is shared by outbound Telegram calls. The timeout must exceed the long polling timeout.
var HTTPClient = &http.Client{
	Timeout: time.Minute,
}
