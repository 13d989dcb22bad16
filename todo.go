/*
	Project: LetUsConnect - web front end of the LetUsConnect alumni & student network
	Backend: the LetUsConnect REST API (`backend.baseURL`)
*/
package letusconnect

/*
TODO: login page once the REST API exposes a login endpoint
	- sessions currently come from registration, a restored cookie or `admin setsession`

TODO: FAQ editing: `PUT /api/faqs/{id}` + edit dialog reusing the create form controller

TODO: workspaces live in the web process memory
	- several replicas need sticky sessions (or a shared workspace store)
	- sessions themselves are already shared through the database

TODO: purge stale sessions from the web server on a schedule (today: `admin purge -older-than`)

TODO: project pages
	- project list & details (core/project types are ready)
	- persist drafted tasks once the REST API exposes project tasks (today: workspace only)
	- join requests: accept / reject
*/
