package pharmakit

// Version is the current version of the pharmakit SDK
const Version = "0.3.1"

// UserAgent is sent with every API request
const UserAgent = "pharmakit-go/" + Version
