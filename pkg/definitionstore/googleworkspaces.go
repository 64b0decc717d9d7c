package definitionstore

import (
	"context"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// firestoreAssignmentDoc is the shape of one caller's workspace-assignment
// document. The slice order is the assignment order.
type firestoreAssignmentDoc struct {
	Workspaces []string `firestore:"workspaces"`
}

// FirestoreWorkspaceDirectory implements WorkspaceDirectory over a Firestore
// collection holding one assignment document per caller.
type FirestoreWorkspaceDirectory struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreWorkspaceDirectory creates a directory reading from the given
// collection of an existing Firestore client.
func NewFirestoreWorkspaceDirectory(client *firestore.Client, collection string) (*FirestoreWorkspaceDirectory, error) {
	if client == nil {
		return nil, fmt.Errorf("firestore client cannot be nil")
	}
	if collection == "" {
		return nil, fmt.Errorf("assignment collection cannot be empty")
	}
	return &FirestoreWorkspaceDirectory{client: client, collection: collection}, nil
}

// Assignments returns the caller's workspaces in assignment order. A caller
// without an assignment document has no workspaces.
func (d *FirestoreWorkspaceDirectory) Assignments(ctx context.Context, caller string) ([]string, error) {
	snapshot, err := d.client.Collection(d.collection).Doc(caller).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read workspace assignments for '%s': %w", caller, err)
	}

	var doc firestoreAssignmentDoc
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("malformed workspace assignment document for '%s': %w", caller, err)
	}
	return doc.Workspaces, nil
}

// Close releases the underlying Firestore client.
func (d *FirestoreWorkspaceDirectory) Close() error {
	return d.client.Close()
}

// CreateGoogleWorkspaceDirectory creates a real Firestore-backed directory.
func CreateGoogleWorkspaceDirectory(ctx context.Context, projectID, collection string, clientOpts ...option.ClientOption) (*FirestoreWorkspaceDirectory, error) {
	client, err := firestore.NewClient(ctx, projectID, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("firestore.NewClient: %w", err)
	}
	return NewFirestoreWorkspaceDirectory(client, collection)
}
