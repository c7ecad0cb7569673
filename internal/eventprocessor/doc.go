// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

/*
Package eventprocessor carries pet and preference change events over Watermill.

When a pet record changes, its vector must be re-encoded, or removed together
with every match that references it once the pet leaves Available status.
When an adopter saves preferences, the adopter vector is re-encoded and the
adopter's matches recomputed. Both are delivered as events so the writer of
the record does not wait for the matching engine.

Architecture:

	HTTP hook / matchctl
	        |
	        v
	  Publisher (circuit breaker, trace propagation)
	        |
	        v
	  Bus (gochannel in-process, or NATS JetStream)
	        |
	        v
	  Consumer (Watermill router: dedup, Recoverer, Retry)
	        |
	        v
	  ChangeHandler (recommend.Orchestrator)

Backends:

  - memory: github.com/ThreeDotsLabs/watermill/pubsub/gochannel. Events are
    lost on restart; the nightly batch refresh repairs anything missed.
  - nats: github.com/ThreeDotsLabs/watermill-nats/v2 over a JetStream stream
    created by EnsureStream. Message ids double as Nats-Msg-Id for
    server-side deduplication.

Topics are "<prefix>.pets.changed" and "<prefix>.preferences.changed".

Error Handling:

Handler errors are retried by the Retry middleware. Errors that cannot succeed
on retry (an adopter without preferences, an undecodable payload) are logged
and acknowledged. Event ids handled successfully are remembered for
RouterConfig.DedupWindow, and a redelivery inside that window is acknowledged
without calling the handler.
*/
package eventprocessor
