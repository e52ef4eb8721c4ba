// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package msgfile

// Header is a type wrapper for a string and represents email header fields of a Message.
type Header string

// AddrHeader is a type wrapper for a string and represents email address header fields of a Message.
type AddrHeader string

// Importance is a type wrapper for an int and represents the importance stored in a MSG file.
type Importance int

const (
	// HeaderAuthenticationResults is the "Authentication-Results" header (RFC 8601).
	// https://datatracker.ietf.org/doc/html/rfc8601#section-2.2
	HeaderAuthenticationResults Header = "Authentication-Results"

	// HeaderDate represents the "Date" field.
	// https://datatracker.ietf.org/doc/html/rfc822#section-5.1
	HeaderDate Header = "Date"

	// HeaderInReplyTo represents the "In-Reply-To" field.
	HeaderInReplyTo Header = "In-Reply-To"

	// HeaderMessageID represents the "Message-ID" field for message identification.
	// https://datatracker.ietf.org/doc/html/rfc1036#section-2.1.5
	HeaderMessageID Header = "Message-ID"

	// HeaderReceived is the "Received" trace field.
	HeaderReceived Header = "Received"

	// HeaderSubject is the "Subject" header field.
	HeaderSubject Header = "Subject"
)

const (
	// HeaderBcc is the "Blind Carbon Copy" header field.
	HeaderBcc AddrHeader = "Bcc"

	// HeaderCc is the "Carbon Copy" header field.
	HeaderCc AddrHeader = "Cc"

	// HeaderFrom is the "From" header field.
	HeaderFrom AddrHeader = "From"

	// HeaderTo is the "Recipient" header field.
	HeaderTo AddrHeader = "To"
)

// The values of the importance property. They match the values Outlook stores.
const (
	// ImportanceLow indicates a low importance.
	ImportanceLow Importance = iota

	// ImportanceNormal indicates a standard importance. A message without importance
	// property has this importance.
	ImportanceNormal

	// ImportanceHigh indicates a high importance.
	ImportanceHigh
)

// NumString returns the numerical "Importance" header value of the Importance level.
//
// ImportanceHigh maps to "1" and ImportanceLow to "0". Other values return an empty string.
func (i Importance) NumString() string {
	switch i {
	case ImportanceLow:
		return "0"
	case ImportanceHigh:
		return "1"
	default:
		return ""
	}
}

// XPrioString returns the X-Priority string representation of the Importance level.
//
// ImportanceHigh maps to "1", ImportanceNormal to "3" and ImportanceLow to "5". Other
// values return an empty string.
func (i Importance) XPrioString() string {
	switch i {
	case ImportanceLow:
		return "5"
	case ImportanceNormal:
		return "3"
	case ImportanceHigh:
		return "1"
	default:
		return ""
	}
}

// String satisfies the fmt.Stringer interface for the Importance type.
func (i Importance) String() string {
	switch i {
	case ImportanceLow:
		return "low"
	case ImportanceNormal:
		return "normal"
	case ImportanceHigh:
		return "high"
	default:
		return ""
	}
}

// String satisfies the fmt.Stringer interface for the Header type.
func (h Header) String() string {
	return string(h)
}

// String satisfies the fmt.Stringer interface for the AddrHeader type.
func (a AddrHeader) String() string {
	return string(a)
}
