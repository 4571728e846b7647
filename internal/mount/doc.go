// Package mount tracks the signup forms currently shown in browsers.
//
// Every page load mounts a fresh signup.Store under a random id. Later
// requests from that page look the store up by id, and the page unload
// beacon unmounts it. Mounts that stop being used expire after a TTL.
//
// Two registries are provided:
//
//	reg := mount.NewMemoryRegistry(mount.WithTTL(30*time.Minute))
//	defer reg.Close(ctx)
//
//	reg := mount.NewRedisRegistry(client, mount.WithStoreOptions(signup.WithSubmitter(sub)))
//
// MemoryRegistry keeps everything in the process. RedisRegistry keeps live
// stores locally as well but writes a snapshot to Redis after every change,
// so a request routed to another replica can rehydrate the form with
// signup.Restore.
//
// Close waits for background submissions of every live store, which makes it
// suitable as an httpserver drain hook.
package mount
