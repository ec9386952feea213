package scripture

import (
	"net/http/cookiejar"
	"time"

	"github.com/vscarantav/parallelscriptures/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// NewUpstreamClient builds the http client used against the scripture
// website: browser-like transport fingerprint, retries on transient
// upstream failures, bounded timeout.
func NewUpstreamClient() *resty.Client {
	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err == nil {
		client.SetCookieJar(jar)
	}
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(time.Second * 30)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(time.Millisecond * 500)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		switch res.StatusCode() {
		case 429, 500, 502, 503, 504:
			return true
		}
		return false
	})

	telemetry.InstrumentResty(client, "scripture/http")
	return client
}
