package hitbeat

// Version is the SDK version reported in the User-Agent of every
// collector request.
const Version = "0.1.0"

const userAgent = "hitbeat-go/" + Version
