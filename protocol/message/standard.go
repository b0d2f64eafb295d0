package message

import (
	"github.com/danmuck/lrpmp/protocol/codec"
	"github.com/danmuck/lrpmp/protocol/field"
	"github.com/danmuck/lrpmp/protocol/kind"
	"github.com/danmuck/lrpmp/protocol/uri"
)

// Goodbye closes the session with a reason.
type Goodbye struct {
	reason uri.URI
	meta   field.Meta
}

func NewGoodbye(reason uri.URI, meta field.Meta) Goodbye {
	return Goodbye{reason: reason, meta: meta}
}

func (m Goodbye) Reason() uri.URI { return m.reason }

func (m Goodbye) Meta() field.Meta { return m.meta }

func (Goodbye) Kind() kind.KnownKind { return kind.Standard(kind.Goodbye) }

func (m Goodbye) Encode(enc codec.Encoder) error {
	return encodeStandard(enc, kind.Goodbye, m.reason, m.meta)
}

func (m *Goodbye) DecodeFields(k kind.Kind, fd codec.FieldDecoder) error {
	var out Goodbye
	if err := decodeStandard(k, kind.Goodbye, fd, &out.reason, &out.meta); err != nil {
		return err
	}
	*m = out
	return nil
}

func (Goodbye) standard() {}

// Hello opens a session.
type Hello struct {
	body field.Body
	meta field.Meta
}

func NewHello(body field.Body, meta field.Meta) Hello {
	return Hello{body: body, meta: meta}
}

func (m Hello) Body() field.Body { return m.body }

func (m Hello) Meta() field.Meta { return m.meta }

func (Hello) Kind() kind.KnownKind { return kind.Standard(kind.Hello) }

func (m Hello) Encode(enc codec.Encoder) error {
	return encodeStandard(enc, kind.Hello, m.body, m.meta)
}

func (m *Hello) DecodeFields(k kind.Kind, fd codec.FieldDecoder) error {
	var out Hello
	if err := decodeStandard(k, kind.Hello, fd, &out.body, &out.meta); err != nil {
		return err
	}
	*m = out
	return nil
}

func (Hello) standard() {}

// Prove challenges the peer during the handshake.
type Prove struct {
	body field.Body
	meta field.Meta
}

func NewProve(body field.Body, meta field.Meta) Prove {
	return Prove{body: body, meta: meta}
}

func (m Prove) Body() field.Body { return m.body }

func (m Prove) Meta() field.Meta { return m.meta }

func (Prove) Kind() kind.KnownKind { return kind.Standard(kind.Prove) }

func (m Prove) Encode(enc codec.Encoder) error {
	return encodeStandard(enc, kind.Prove, m.body, m.meta)
}

func (m *Prove) DecodeFields(k kind.Kind, fd codec.FieldDecoder) error {
	var out Prove
	if err := decodeStandard(k, kind.Prove, fd, &out.body, &out.meta); err != nil {
		return err
	}
	*m = out
	return nil
}

func (Prove) standard() {}

// Proof answers a challenge.
type Proof struct {
	body field.Body
	meta field.Meta
}

func NewProof(body field.Body, meta field.Meta) Proof {
	return Proof{body: body, meta: meta}
}

func (m Proof) Body() field.Body { return m.body }

func (m Proof) Meta() field.Meta { return m.meta }

func (Proof) Kind() kind.KnownKind { return kind.Standard(kind.Proof) }

func (m Proof) Encode(enc codec.Encoder) error {
	return encodeStandard(enc, kind.Proof, m.body, m.meta)
}

func (m *Proof) DecodeFields(k kind.Kind, fd codec.FieldDecoder) error {
	var out Proof
	if err := decodeStandard(k, kind.Proof, fd, &out.body, &out.meta); err != nil {
		return err
	}
	*m = out
	return nil
}

func (Proof) standard() {}

// Error reports the failure of a request.
type Error struct {
	requestKind kind.Kind
	requestID   field.ID
	errorURI    uri.URI
	body        field.Body
	meta        field.Meta
}

func NewError(requestKind kind.Kind, requestID field.ID, errorURI uri.URI, body field.Body, meta field.Meta) Error {
	return Error{requestKind: requestKind, requestID: requestID, errorURI: errorURI, body: body, meta: meta}
}

func (m Error) RequestKind() kind.Kind { return m.requestKind }

func (m Error) RequestID() field.ID { return m.requestID }

func (m Error) ErrorURI() uri.URI { return m.errorURI }

func (m Error) Body() field.Body { return m.body }

func (m Error) Meta() field.Meta { return m.meta }

func (Error) Kind() kind.KnownKind { return kind.Standard(kind.Error) }

func (m Error) Encode(enc codec.Encoder) error {
	return encodeStandard(enc, kind.Error, m.requestKind, m.requestID, m.errorURI, m.body, m.meta)
}

func (m *Error) DecodeFields(k kind.Kind, fd codec.FieldDecoder) error {
	var out Error
	if err := decodeStandard(k, kind.Error, fd, &out.requestKind, &out.requestID, &out.errorURI, &out.body, &out.meta); err != nil {
		return err
	}
	*m = out
	return nil
}

func (Error) standard() {}

// Cancel cancels a pending request.
type Cancel struct {
	requestID field.ID
	meta      field.Meta
}

func NewCancel(requestID field.ID, meta field.Meta) Cancel {
	return Cancel{requestID: requestID, meta: meta}
}

func (m Cancel) RequestID() field.ID { return m.requestID }

func (m Cancel) Meta() field.Meta { return m.meta }

func (Cancel) Kind() kind.KnownKind { return kind.Standard(kind.Cancel) }

func (m Cancel) Encode(enc codec.Encoder) error {
	return encodeStandard(enc, kind.Cancel, m.requestID, m.meta)
}

func (m *Cancel) DecodeFields(k kind.Kind, fd codec.FieldDecoder) error {
	var out Cancel
	if err := decodeStandard(k, kind.Cancel, fd, &out.requestID, &out.meta); err != nil {
		return err
	}
	*m = out
	return nil
}

func (Cancel) standard() {}

// Call calls a remote procedure.
type Call struct {
	requestID field.ID
	procedure uri.URI
	body      field.Body
	meta      field.Meta
}

func NewCall(requestID field.ID, procedure uri.URI, body field.Body, meta field.Meta) Call {
	return Call{requestID: requestID, procedure: procedure, body: body, meta: meta}
}

func (m Call) RequestID() field.ID { return m.requestID }

func (m Call) Procedure() uri.URI { return m.procedure }

func (m Call) Body() field.Body { return m.body }

func (m Call) Meta() field.Meta { return m.meta }

func (Call) Kind() kind.KnownKind { return kind.Standard(kind.Call) }

func (m Call) Encode(enc codec.Encoder) error {
	return encodeStandard(enc, kind.Call, m.requestID, m.procedure, m.body, m.meta)
}

func (m *Call) DecodeFields(k kind.Kind, fd codec.FieldDecoder) error {
	var out Call
	if err := decodeStandard(k, kind.Call, fd, &out.requestID, &out.procedure, &out.body, &out.meta); err != nil {
		return err
	}
	*m = out
	return nil
}

func (Call) standard() {}

// Result returns the result of a call.
type Result struct {
	requestID field.ID
	body      field.Body
	meta      field.Meta
}

func NewResult(requestID field.ID, body field.Body, meta field.Meta) Result {
	return Result{requestID: requestID, body: body, meta: meta}
}

func (m Result) RequestID() field.ID { return m.requestID }

func (m Result) Body() field.Body { return m.body }

func (m Result) Meta() field.Meta { return m.meta }

func (Result) Kind() kind.KnownKind { return kind.Standard(kind.Result) }

func (m Result) Encode(enc codec.Encoder) error {
	return encodeStandard(enc, kind.Result, m.requestID, m.body, m.meta)
}

func (m *Result) DecodeFields(k kind.Kind, fd codec.FieldDecoder) error {
	var out Result
	if err := decodeStandard(k, kind.Result, fd, &out.requestID, &out.body, &out.meta); err != nil {
		return err
	}
	*m = out
	return nil
}

func (Result) standard() {}

// Event delivers a publication to a subscriber.
type Event struct {
	publicationID  field.ID
	subscriptionID field.ID
	body           field.Body
	meta           field.Meta
}

func NewEvent(publicationID field.ID, subscriptionID field.ID, body field.Body, meta field.Meta) Event {
	return Event{publicationID: publicationID, subscriptionID: subscriptionID, body: body, meta: meta}
}

func (m Event) PublicationID() field.ID { return m.publicationID }

func (m Event) SubscriptionID() field.ID { return m.subscriptionID }

func (m Event) Body() field.Body { return m.body }

func (m Event) Meta() field.Meta { return m.meta }

func (Event) Kind() kind.KnownKind { return kind.Standard(kind.Event) }

func (m Event) Encode(enc codec.Encoder) error {
	return encodeStandard(enc, kind.Event, m.publicationID, m.subscriptionID, m.body, m.meta)
}

func (m *Event) DecodeFields(k kind.Kind, fd codec.FieldDecoder) error {
	var out Event
	if err := decodeStandard(k, kind.Event, fd, &out.publicationID, &out.subscriptionID, &out.body, &out.meta); err != nil {
		return err
	}
	*m = out
	return nil
}

func (Event) standard() {}

// Publish publishes a body to a topic.
type Publish struct {
	requestID field.ID
	topic     uri.URI
	body      field.Body
	meta      field.Meta
}

func NewPublish(requestID field.ID, topic uri.URI, body field.Body, meta field.Meta) Publish {
	return Publish{requestID: requestID, topic: topic, body: body, meta: meta}
}

func (m Publish) RequestID() field.ID { return m.requestID }

func (m Publish) Topic() uri.URI { return m.topic }

func (m Publish) Body() field.Body { return m.body }

func (m Publish) Meta() field.Meta { return m.meta }

func (Publish) Kind() kind.KnownKind { return kind.Standard(kind.Publish) }

func (m Publish) Encode(enc codec.Encoder) error {
	return encodeStandard(enc, kind.Publish, m.requestID, m.topic, m.body, m.meta)
}

func (m *Publish) DecodeFields(k kind.Kind, fd codec.FieldDecoder) error {
	var out Publish
	if err := decodeStandard(k, kind.Publish, fd, &out.requestID, &out.topic, &out.body, &out.meta); err != nil {
		return err
	}
	*m = out
	return nil
}

func (Publish) standard() {}

// Published acknowledges a publish.
type Published struct {
	requestID     field.ID
	publicationID field.ID
	meta          field.Meta
}

func NewPublished(requestID field.ID, publicationID field.ID, meta field.Meta) Published {
	return Published{requestID: requestID, publicationID: publicationID, meta: meta}
}

func (m Published) RequestID() field.ID { return m.requestID }

func (m Published) PublicationID() field.ID { return m.publicationID }

func (m Published) Meta() field.Meta { return m.meta }

func (Published) Kind() kind.KnownKind { return kind.Standard(kind.Published) }

func (m Published) Encode(enc codec.Encoder) error {
	return encodeStandard(enc, kind.Published, m.requestID, m.publicationID, m.meta)
}

func (m *Published) DecodeFields(k kind.Kind, fd codec.FieldDecoder) error {
	var out Published
	if err := decodeStandard(k, kind.Published, fd, &out.requestID, &out.publicationID, &out.meta); err != nil {
		return err
	}
	*m = out
	return nil
}

func (Published) standard() {}

// Subscribe subscribes to a topic or topic pattern.
type Subscribe struct {
	requestID field.ID
	topic     uri.URI
	meta      field.Meta
}

func NewSubscribe(requestID field.ID, topic uri.URI, meta field.Meta) Subscribe {
	return Subscribe{requestID: requestID, topic: topic, meta: meta}
}

func (m Subscribe) RequestID() field.ID { return m.requestID }

func (m Subscribe) Topic() uri.URI { return m.topic }

func (m Subscribe) Meta() field.Meta { return m.meta }

func (Subscribe) Kind() kind.KnownKind { return kind.Standard(kind.Subscribe) }

func (m Subscribe) Encode(enc codec.Encoder) error {
	return encodeStandard(enc, kind.Subscribe, m.requestID, m.topic, m.meta)
}

func (m *Subscribe) DecodeFields(k kind.Kind, fd codec.FieldDecoder) error {
	var out Subscribe
	if err := decodeStandard(k, kind.Subscribe, fd, &out.requestID, &out.topic, &out.meta); err != nil {
		return err
	}
	*m = out
	return nil
}

func (Subscribe) standard() {}

// Subscribed acknowledges a subscribe.
type Subscribed struct {
	requestID      field.ID
	subscriptionID field.ID
	meta           field.Meta
}

func NewSubscribed(requestID field.ID, subscriptionID field.ID, meta field.Meta) Subscribed {
	return Subscribed{requestID: requestID, subscriptionID: subscriptionID, meta: meta}
}

func (m Subscribed) RequestID() field.ID { return m.requestID }

func (m Subscribed) SubscriptionID() field.ID { return m.subscriptionID }

func (m Subscribed) Meta() field.Meta { return m.meta }

func (Subscribed) Kind() kind.KnownKind { return kind.Standard(kind.Subscribed) }

func (m Subscribed) Encode(enc codec.Encoder) error {
	return encodeStandard(enc, kind.Subscribed, m.requestID, m.subscriptionID, m.meta)
}

func (m *Subscribed) DecodeFields(k kind.Kind, fd codec.FieldDecoder) error {
	var out Subscribed
	if err := decodeStandard(k, kind.Subscribed, fd, &out.requestID, &out.subscriptionID, &out.meta); err != nil {
		return err
	}
	*m = out
	return nil
}

func (Subscribed) standard() {}

// Unsubscribe removes a subscription.
type Unsubscribe struct {
	requestID      field.ID
	subscriptionID field.ID
	meta           field.Meta
}

func NewUnsubscribe(requestID field.ID, subscriptionID field.ID, meta field.Meta) Unsubscribe {
	return Unsubscribe{requestID: requestID, subscriptionID: subscriptionID, meta: meta}
}

func (m Unsubscribe) RequestID() field.ID { return m.requestID }

func (m Unsubscribe) SubscriptionID() field.ID { return m.subscriptionID }

func (m Unsubscribe) Meta() field.Meta { return m.meta }

func (Unsubscribe) Kind() kind.KnownKind { return kind.Standard(kind.Unsubscribe) }

func (m Unsubscribe) Encode(enc codec.Encoder) error {
	return encodeStandard(enc, kind.Unsubscribe, m.requestID, m.subscriptionID, m.meta)
}

func (m *Unsubscribe) DecodeFields(k kind.Kind, fd codec.FieldDecoder) error {
	var out Unsubscribe
	if err := decodeStandard(k, kind.Unsubscribe, fd, &out.requestID, &out.subscriptionID, &out.meta); err != nil {
		return err
	}
	*m = out
	return nil
}

func (Unsubscribe) standard() {}

// Unsubscribed acknowledges an unsubscribe.
type Unsubscribed struct {
	requestID field.ID
	meta      field.Meta
}

func NewUnsubscribed(requestID field.ID, meta field.Meta) Unsubscribed {
	return Unsubscribed{requestID: requestID, meta: meta}
}

func (m Unsubscribed) RequestID() field.ID { return m.requestID }

func (m Unsubscribed) Meta() field.Meta { return m.meta }

func (Unsubscribed) Kind() kind.KnownKind { return kind.Standard(kind.Unsubscribed) }

func (m Unsubscribed) Encode(enc codec.Encoder) error {
	return encodeStandard(enc, kind.Unsubscribed, m.requestID, m.meta)
}

func (m *Unsubscribed) DecodeFields(k kind.Kind, fd codec.FieldDecoder) error {
	var out Unsubscribed
	if err := decodeStandard(k, kind.Unsubscribed, fd, &out.requestID, &out.meta); err != nil {
		return err
	}
	*m = out
	return nil
}

func (Unsubscribed) standard() {}
