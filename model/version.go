package model

// CurrentVersion is sent back in the X-Version-ID header of every response.
const CurrentVersion = "1.0.0"
