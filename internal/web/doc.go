// Package web serves the volunteer signup widget over HTTP.
//
// GET / mounts a fresh form and renders the page. The page talks to the
// server with Datastar: every input event posts the current signals to
// /signup/{mount}/fields/{field} and receives SSE patches for that field's
// message and the submit button. Submitting posts to /signup/{mount}/submit,
// which resets the form through a signal patch and re-renders it. The page
// unload hook deletes the mount.
//
// Without JavaScript the same form posts urlencoded values to the submit
// route and gets a full page back, with status 422 when the values do not
// pass validation.
//
// GET /signup/{mount} returns the mounted state as JSON, and /healthz serves
// liveness and readiness probes.
package web
