package database

import "time"

// DefaultPingTimeout bounds the connectivity check done when a client is created.
const DefaultPingTimeout = 5 * time.Second

// Error Messages - Database Operations
const (
	ErrMsgFailedToCreateFirestore = "failed to create firestore client"
	ErrMsgFailedToConnectMongo    = "failed to connect to mongodb"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
)

// Log Messages
const (
	LogMsgConnectedToFirestore = "Connected to Firestore"
	LogMsgConnectedToMongo     = "Connected to MongoDB"
)
