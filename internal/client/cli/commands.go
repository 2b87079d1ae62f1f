package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Register prompts for account details and creates a user. A fresh
// session token comes back with the account, so registration also
// logs the user in.
func (a *App) Register(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}
	firstName, err := GetSimpleText(a.reader, "Enter first name", os.Stdout)
	if err != nil {
		return err
	}
	lastName, err := GetSimpleText(a.reader, "Enter last name", os.Stdout)
	if err != nil {
		return err
	}
	phone, err := GetSimpleText(a.reader, "Enter phone", os.Stdout)
	if err != nil {
		return err
	}

	token, err := a.api.Register(ctx, username, string(password), firstName, lastName, phone)
	if err != nil {
		printlnFn("Registration failed:", err)
		return err
	}

	a.api.SetToken(token)
	a.userName = username
	printlnFn("Registered and logged in as", username)
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	token, err := a.api.Login(ctx, username, string(password))
	if err != nil {
		printlnFn("Login failed:", err)
		return err
	}

	a.api.SetToken(token)
	a.userName = username
	printlnFn("Logged in as", username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.api.SetToken("")
	a.userName = ""
	printlnFn("Logged out")
	return nil
}

func (a *App) Users(ctx context.Context) error {
	users, err := a.api.ListUsers(ctx)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	for _, u := range users {
		printlnFn(fmt.Sprintf("%s  %s %s  %s", u.Username, u.FirstName, u.LastName, u.Phone))
	}
	return nil
}

func (a *App) Inbox(ctx context.Context) error {
	msgs, err := a.api.Inbox(ctx, a.userName)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	if len(msgs) == 0 {
		printlnFn("Inbox is empty")
		return nil
	}
	for _, m := range msgs {
		from := ""
		if m.FromUser != nil {
			from = m.FromUser.Username
		}
		printlnFn(fmt.Sprintf("[%d] from %s at %s%s: %s",
			m.ID, from, m.SentAt.Format(time.RFC3339), readMark(m.ReadAt), m.Body))
	}
	return nil
}

func (a *App) Outbox(ctx context.Context) error {
	msgs, err := a.api.Outbox(ctx, a.userName)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	if len(msgs) == 0 {
		printlnFn("No sent messages")
		return nil
	}
	for _, m := range msgs {
		to := ""
		if m.ToUser != nil {
			to = m.ToUser.Username
		}
		printlnFn(fmt.Sprintf("[%d] to %s at %s%s: %s",
			m.ID, to, m.SentAt.Format(time.RFC3339), readMark(m.ReadAt), m.Body))
	}
	return nil
}

// Send prompts for a recipient and a message body and delivers it.
func (a *App) Send(ctx context.Context) error {
	to, err := GetSimpleText(a.reader, "Enter recipient username", os.Stdout)
	if err != nil {
		return err
	}
	body, err := GetMultiline(a.reader, "Enter message", os.Stdout)
	if err != nil {
		return err
	}

	msg, err := a.api.Send(ctx, to, body)
	if err != nil {
		printlnFn("Send failed:", err)
		return err
	}
	printlnFn(fmt.Sprintf("Sent message %d to %s", msg.ID, to))
	return nil
}

// Read marks a received message as read. The message id is taken from
// the command argument, or prompted for when missing.
func (a *App) Read(ctx context.Context, arg string) error {
	if arg == "" {
		var err error
		arg, err = GetSimpleText(a.reader, "Enter message id", os.Stdout)
		if err != nil {
			return err
		}
	}

	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		printlnFn("Invalid message id:", arg)
		return err
	}

	msg, err := a.api.MarkRead(ctx, id)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn(fmt.Sprintf("Message %d marked read at %s", msg.ID, msg.ReadAt.Format(time.RFC3339)))
	return nil
}

func readMark(readAt *time.Time) string {
	if readAt == nil {
		return " (unread)"
	}
	return ""
}
