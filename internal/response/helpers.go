package response

// New builds a response with the standard reason phrase for code
func New(code StatusCode, contentType ContentType, body []byte) Response {
	return Response{
		Status:      code,
		Reason:      StatusText(code),
		ContentType: contentType,
		Body:        body,
	}
}

// Empty is a response with a status line only
func Empty(code StatusCode) Response {
	return New(code, ContentTypeNone, nil)
}

// Text is a text/plain response
func Text(code StatusCode, body string) Response {
	return New(code, ContentTypeTextPlain, []byte(body))
}

// OctetStream is an application/octet-stream response
func OctetStream(code StatusCode, data []byte) Response {
	return New(code, ContentTypeOctetStream, data)
}

func OK() Response {
	return Empty(StatusOK)
}

func Created() Response {
	return Empty(StatusCreated)
}

func NotFound() Response {
	return Empty(StatusNotFound)
}

func InternalServerError() Response {
	return Empty(StatusInternalServerError)
}
