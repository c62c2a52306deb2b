package fetcher

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
)

// Kind of fetch failure
type Kind int

// enum of all failure kinds
const (
	KindTransport Kind = iota
	KindStatus
	KindEmptyBody
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindEmptyBody:
		return "empty"
	}
	return "unknown"
}

// transport failure codes, numbered the same way libcurl does, hosts rely on these values
const (
	CodeUnsupportedProtocol = 1
	CodeURLMalformat        = 3
	CodeCantResolveProxy    = 5
	CodeCantResolveHost     = 6
	CodeCantConnect         = 7
	CodePartialFile         = 18
	CodeTimedOut            = 28
	CodeSSLConnect          = 35
	CodeAborted             = 42
	CodeTooManyRedirects    = 47
	CodeRecvError           = 56
	CodePeerVerification    = 60
	CodeBadContentEncoding  = 61
	CodeFileSizeExceeded    = 63
)

var codeText = map[int]string{
	CodeUnsupportedProtocol: "Unsupported protocol",
	CodeURLMalformat:        "URL using bad/illegal format",
	CodeCantResolveProxy:    "Could not resolve proxy",
	CodeCantResolveHost:     "Could not resolve host",
	CodeCantConnect:         "Could not connect to server",
	CodePartialFile:         "Transfer closed with outstanding read data remaining",
	CodeTimedOut:            "Operation timed out",
	CodeSSLConnect:          "SSL connect error",
	CodeAborted:             "Operation was aborted",
	CodeTooManyRedirects:    "Number of redirects hit maximum amount",
	CodeRecvError:           "Failure when receiving data from the peer",
	CodePeerVerification:    "SSL peer certificate or SSH remote key was not OK",
	CodeBadContentEncoding:  "Unrecognized or bad HTTP Content or Transfer-Encoding",
	CodeFileSizeExceeded:    "Maximum file size exceeded",
}

var (
	errTooManyRedirects = fmt.Errorf("stopped after %d redirects", maxRedirects)
	errBodyTooLarge     = errors.New("response body exceeds size limit")
	errBadEncoding      = errors.New("unrecognized content encoding")
	errBadURL           = errors.New("bad url")
	errBadProxy         = errors.New("invalid proxy host")
)

// Error is a failed fetch. Transport failures carry curl-compatible code,
// status failures carry http status code and the body received.
type Error struct {
	Kind        Kind
	Code        int
	Message     string
	Content     []byte
	ContentType string
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return e.Message
	}
	return fmt.Sprintf("%d %s", e.Code, e.Message)
}

// transportError makes Error from http client failure
func transportError(err error) *Error {
	code := transportCode(err)
	return &Error{Kind: KindTransport, Code: code, Message: codeText[code] + ": " + err.Error()}
}

// transportCode maps client error to the closest curl error code
func transportCode(err error) int {
	var (
		opErr      *net.OpError
		dnsErr     *net.DNSError
		netErr     net.Error
		certErr    *tls.CertificateVerificationError
		authErr    x509.UnknownAuthorityError
		hostErr    x509.HostnameError
		invalidErr x509.CertificateInvalidError
		recErr     tls.RecordHeaderError
	)

	switch {
	case errors.Is(err, errTooManyRedirects):
		return CodeTooManyRedirects
	case errors.Is(err, errBodyTooLarge):
		return CodeFileSizeExceeded
	case errors.Is(err, errBadEncoding):
		return CodeBadContentEncoding
	case errors.Is(err, errBadURL):
		return CodeURLMalformat
	case errors.Is(err, errBadProxy):
		return CodeCantResolveProxy
	case errors.Is(err, io.ErrUnexpectedEOF):
		return CodePartialFile
	case errors.Is(err, context.Canceled):
		return CodeAborted
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return CodeTimedOut
	case errors.As(err, &opErr) && opErr.Op == "proxyconnect":
		if errors.As(err, &dnsErr) {
			return CodeCantResolveProxy
		}
		return CodeCantConnect
	case errors.As(err, &dnsErr):
		return CodeCantResolveHost
	case errors.As(err, &certErr), errors.As(err, &authErr), errors.As(err, &hostErr), errors.As(err, &invalidErr):
		return CodePeerVerification
	case errors.As(err, &recErr), strings.Contains(err.Error(), "tls: "):
		return CodeSSLConnect
	case opErr != nil && opErr.Op == "dial":
		return CodeCantConnect
	case strings.Contains(err.Error(), "unsupported protocol scheme"):
		return CodeUnsupportedProtocol
	}
	return CodeRecvError
}

// needsFallback reports errors fixed by refetching without compression
func needsFallback(err error) bool {
	if err == nil {
		return false
	}
	code := transportCode(err)
	return code == CodeBadContentEncoding || code == CodePartialFile
}
