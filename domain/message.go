// Package domain contains core concepts of the chat room.
// This file defines the live Message record.
// No runtime, network, or UI logic should be added here.
package domain

// Message is a chat message still live in the room.
// The id stays unique among live messages; the author recorded at post
// time is the sole authorization key for later edits and deletes.
type Message struct {
	ID      string
	Author  string
	Content string
}
