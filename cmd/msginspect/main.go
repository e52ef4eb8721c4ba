// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

// Command msginspect prints the reconstructed message of an Outlook MSG file.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wneessen/go-msgfile"
	"github.com/wneessen/go-msgfile/log"
)

// flags holds the command line flags shared by all commands
type flags struct {
	attachErrors     string
	debug            bool
	delayAttachments bool
	encoding         string
	jsonLog          bool
	separator        string
}

func main() {
	f := &flags{}
	rootCmd := &cobra.Command{
		Use:   "msginspect [msg file]",
		Short: "Print the reconstructed message of an Outlook MSG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMessage(cmd, f, args[0], printSummary)
		},
	}
	rootCmd.PersistentFlags().StringVar(&f.attachErrors, "attachment-errors", msgfile.AttachErrorThrow.String(),
		"attachment failures replaced by placeholders: throw, unsupported or broken")
	rootCmd.PersistentFlags().BoolVar(&f.debug, "debug", false, "log debug messages")
	rootCmd.PersistentFlags().BoolVar(&f.delayAttachments, "delay-attachments", false,
		"read attachments only when requested")
	rootCmd.PersistentFlags().StringVar(&f.encoding, "encoding", "", "override the encoding of 8-bit strings")
	rootCmd.PersistentFlags().BoolVar(&f.jsonLog, "json-log", false, "log in JSON format")
	rootCmd.PersistentFlags().StringVar(&f.separator, "separator", msgfile.DefaultRecipientSeparator,
		"separator between recipient addresses")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "header [msg file]",
		Short: "Print the header fields of the message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMessage(cmd, f, args[0], printHeader)
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "attachments [msg file]",
		Short: "List the attachments of the message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMessage(cmd, f, args[0], printAttachments)
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "html [msg file]",
		Short: "Print the HTML body with inlined attachment images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMessage(cmd, f, args[0], printHTML)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options returns the Message options for the flags
func (f *flags) options(stderr io.Writer) ([]msgfile.Option, error) {
	behavior, err := msgfile.ParseAttachmentErrorBehavior(f.attachErrors)
	if err != nil {
		return nil, err
	}
	level := log.LevelWarn
	if f.debug {
		level = log.LevelDebug
	}
	var logger log.Logger = log.New(stderr, level)
	if f.jsonLog {
		logger = log.NewJSON(stderr, level)
	}

	opts := []msgfile.Option{
		msgfile.WithAttachmentErrorBehavior(behavior),
		msgfile.WithLogger(logger),
		msgfile.WithRecipientSeparator(f.separator),
	}
	if f.delayAttachments {
		opts = append(opts, msgfile.WithDelayAttachments())
	}
	if f.encoding != "" {
		opts = append(opts, msgfile.WithOverrideEncoding(f.encoding))
	}
	return opts, nil
}

// withMessage opens the MSG file name and calls fn with the Message
func withMessage(cmd *cobra.Command, f *flags, name string, fn func(io.Writer, *msgfile.Message) error) error {
	opts, err := f.options(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	m, err := msgfile.OpenFile(name, opts...)
	if err != nil {
		return err
	}
	if err := fn(cmd.OutOrStdout(), m); err != nil {
		_ = m.Close()
		return err
	}
	return m.Close()
}

func printSummary(w io.Writer, m *msgfile.Message) error {
	imp := m.Importance()
	fields := []struct {
		name  string
		value string
	}{
		{msgfile.HeaderSubject.String(), m.Subject()},
		{msgfile.HeaderFrom.String(), m.Sender()},
		{msgfile.HeaderTo.String(), m.To()},
		{msgfile.HeaderCc.String(), m.Cc()},
		{msgfile.HeaderBcc.String(), m.Bcc()},
		{msgfile.HeaderDate.String(), m.Date()},
		{msgfile.HeaderMessageID.String(), m.MessageID()},
		{msgfile.HeaderInReplyTo.String(), m.InReplyTo()},
		{"Importance", strings.TrimSpace(imp.String() + " " + imp.NumString())},
		{"X-Priority", imp.XPrioString()},
		{"Read", fmt.Sprintf("%t", m.IsRead())},
		{"Folder name", m.DefaultFolderName()},
		{"Raw header", fmt.Sprintf("%t", m.HeaderInitialized())},
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-12s %s\n", f.name+":", f.value)
	}
	for _, p := range m.Named().All() {
		fmt.Fprintf(w, "%-12s %s %s (0x%04X)\n", "Named prop:", p.GUID, p.Name, p.ID)
	}
	if body := m.Body(); body != "" {
		fmt.Fprintf(w, "\n%s\n", body)
	}
	return nil
}

func printHeader(w io.Writer, m *msgfile.Message) error {
	hm := m.HeaderMap()
	keys := make([]string, 0, len(hm))
	for k := range hm {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s: %s\n", k, hm[k])
	}
	return nil
}

func printAttachments(w io.Writer, m *msgfile.Message) error {
	return m.EachAttachment(func(a *msgfile.Attachment) error {
		switch {
		case a.Kind() != msgfile.AttachmentRegular:
			fmt.Fprintf(w, "%s\t%s\t%s\n", a.Dir(), a.Kind(), a.Err())
		case a.Type() == msgfile.AttachmentTypeMsg:
			fmt.Fprintf(w, "%s\t%s\t%s\n", a.Dir(), a.Type(), a.Embedded().Subject())
		default:
			fmt.Fprintf(w, "%s\t%s\t%s\t%d bytes\t%s\n", a.Dir(), a.Type(), a.Filename(), len(a.Data()),
				a.ContentID())
		}
		return nil
	})
}

func printHTML(w io.Writer, m *msgfile.Message) error {
	body, err := m.HTMLBodyPrepared()
	if err != nil {
		return err
	}
	if body == nil {
		return fmt.Errorf("message has no HTML body")
	}
	_, err = w.Write(body)
	return err
}
