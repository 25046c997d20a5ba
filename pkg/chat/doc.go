// Package chat composes the provider, retry, stream, and history layers
// into one completion pipeline.
//
// A Service takes a validated Request, resolves the named provider through
// a Registry, and dispatches it with retries on transient failures. Replies
// come back as a Response; streamed replies additionally surface their text
// through a synchronous on-update callback as deltas arrive. Finished turns
// are appended to a history store when one is configured.
//
// # Basic Usage
//
//	svc := chat.NewService(chat.ServiceConfig{
//	    Registry: manager,
//	    Catalog:  models,
//	    History:  store,
//	})
//
//	resp, err := svc.Send(ctx, &chat.Request{
//	    Provider: "gateway",
//	    Model:    "gpt-4o",
//	    Messages: []providers.Message{
//	        {Role: providers.RoleUser, Content: "hello"},
//	    },
//	})
//
// # Streaming
//
// SendStream reports accumulated content on each delta. Printing only the
// increment is the caller's slice:
//
//	printed := 0
//	resp, err := svc.SendStream(ctx, req, func(content string) {
//	    fmt.Print(content[printed:])
//	    printed = len(content)
//	})
//
// Cancelling the context mid-stream stops the turn but keeps the partial
// content: it is returned on the Response, marked Partial, and persisted to
// history alongside complete turns.
package chat
