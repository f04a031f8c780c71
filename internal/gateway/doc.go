/*
Package gateway wraps the four HTTP operations of the movies REST resource.

# Overview

The gateway translates four intents into requests against a base collection
URL and reports a binary outcome:
  - ListAll: GET {base}, decoded into []types.Movie
  - Create: POST {base} with a JSON {title, year, genre} body
  - Update: PUT {base}/{id} with the same body
  - Delete: DELETE {base}/{id}

A nil error means the server answered with a 2xx status. The gateway holds no
state besides its configuration, never retries, and validates nothing beyond
encoding the payload.

# Error Handling

Errors are typed so callers can tell them apart with errors.As:
  - NetworkError: the request could not be sent or the response not received
  - DecodeError: the list response is not a JSON array of movies
  - RejectedError: the server answered with a non-2xx status
  - EncodeError: the draft could not be turned into a payload (nothing sent)

# Journaling

Every request that reaches the transport is reported to an optional Recorder
(see the history package) and logged at debug level.

# Example Usage

	client, err := gateway.New("http://localhost:5011/api/movies",
		gateway.WithTimeout(10*time.Second),
		gateway.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	movies, err := client.ListAll(ctx)
	if err != nil {
		var rejected *gateway.RejectedError
		if errors.As(err, &rejected) {
			fmt.Println("server said", rejected.Status)
		}
		return err
	}

# Thread Safety

A Client is safe for concurrent use. Requests in flight are independent:
there is no coordination, cancellation or ordering between them.
*/
package gateway
