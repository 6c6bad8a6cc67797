package stats

/*
This file defines all the metrics being collected.   As new metrics are added please follow this pattern.
*/

const (
	/************************* API client metrics **************************/
	/*
		scope for everything recorded by the OCDB API client
	*/
	APIClientScope = "ocdbClient"

	/*
		the number of HTTP requests sent to the OCDB server
	*/
	APIRequestCounter = "requestCounter"

	/*
		the number of requests that failed before a response was received
	*/
	APIRequestErrCounter = "requestErrCounter"

	/*
		the number of responses with a status outside of 2xx
	*/
	APIResponseStatusErrCounter = "responseStatusErrCounter"

	/*
		time from sending a request until its response body was read, per operation
	*/
	APIRequestLatency_ms = "requestLatency_ms"

	/*
		number of bytes sent in multipart upload bodies
	*/
	APIUploadBytesCounter = "uploadBytesCounter"

	/*
		number of bytes received by file downloads
	*/
	APIDownloadBytesCounter = "downloadBytesCounter"
)
