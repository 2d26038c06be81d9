package domain

// RootScopeID is the ID of the application scope when a document does not name one.
const RootScopeID = "app"

// DefaultCommand is the command run when resolution finds nothing.
const DefaultCommand = "app::default"
