// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

// Package msgfile reconstructs a coherent email message (header, body, HTML body,
// recipients and attachments) from an Outlook MSG file, even when the properties
// stored in the file are partial, redundant or missing.
//
// Every field of a Message is resolved through a fallback chain, for example the
// HTML body is read from its own stream, de-encapsulated from the compressed RTF body
// or generated from the plain text body. Resolved values are cached and never change
// for the lifetime of the Message.
package msgfile

// VERSION is the version of the go-msgfile package
const VERSION = "0.1.0"
