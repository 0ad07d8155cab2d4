package internal

// Version is the current forvodict release
const Version = "0.3.1"
