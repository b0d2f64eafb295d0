package message

import (
	"fmt"

	"github.com/danmuck/lrpmp/protocol/spec"
	"github.com/danmuck/lrpmp/protocol/uri"
)

// Standard reasons from the embedded definitions.
var (
	URIGoodbyeNormal      = standardURI("goodbye_normal")
	URIGoodbyeShutdown    = standardURI("goodbye_shutdown")
	URIProtocolViolation  = standardURI("protocol_violation")
	URINotAuthorized      = standardURI("not_authorized")
	URIInvalidArgument    = standardURI("invalid_argument")
	URINoSuchProcedure    = standardURI("no_such_procedure")
	URINoSuchSubscription = standardURI("no_such_subscription")
	URICanceled           = standardURI("canceled")
)

func standardURI(name string) uri.URI {
	d, ok := spec.MustDefault().URI(name)
	if !ok {
		panic(fmt.Sprintf("message: uri definition %q missing", name))
	}
	return uri.MustParse(d.URI)
}
