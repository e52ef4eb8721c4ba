// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package msgfile

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// cidScheme is the URL scheme that references an attachment by its content-id
const cidScheme = "cid:"

// HTMLBodyPrepared returns the HTML body of the Message with every image that
// references an attachment by content-id replaced by an inline data URL of the
// attachment data. It returns nil if the Message has no HTML body.
func (m *Message) HTMLBodyPrepared() ([]byte, error) {
	body := m.HTMLBody()
	if len(body) == 0 {
		return nil, nil
	}
	atts, err := m.Attachments()
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML body: %w", err)
	}
	injectContentIDs(doc, atts)

	buf := bytes.NewBuffer(nil)
	if err := html.Render(buf, doc); err != nil {
		return nil, fmt.Errorf("failed to render HTML body: %w", err)
	}
	return buf.Bytes(), nil
}

// injectContentIDs walks the tree below n and inlines the data of the attachments
// referenced by "cid:" image sources
func injectContentIDs(n *html.Node, atts []*Attachment) {
	if n.Type == html.ElementNode && n.Data == "img" {
		for i, attr := range n.Attr {
			if attr.Namespace != "" || attr.Key != "src" {
				continue
			}
			if len(attr.Val) < len(cidScheme) || !strings.EqualFold(attr.Val[:len(cidScheme)], cidScheme) {
				continue
			}
			data := contentIDData(atts, attr.Val[len(cidScheme):])
			if len(data) == 0 {
				continue
			}
			n.Attr[i].Val = "data:image;base64," + base64.StdEncoding.EncodeToString(data)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		injectContentIDs(c, atts)
	}
}

// contentIDData returns the data of the first attachment with the content-id cid
func contentIDData(atts []*Attachment, cid string) []byte {
	for _, a := range atts {
		if a.ContentID() == cid {
			return a.Data()
		}
	}
	return nil
}
