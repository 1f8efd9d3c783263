package hubcommon

// ServerVersion is the version of the MentorHub session server.
const ServerVersion = "0.3.0"

// ApiVersion is the version of the HTTP API surface.
const ApiVersion = "v1"

// UserIDHeader carries the authenticated caller identity, forwarded by the
// upstream auth proxy.
const UserIDHeader = "X-MentorHub-User"
