// attendctl is a command-line client for the attendance service.
//
// Configuration comes from the environment (a .env file is honored):
//
//	ATTENDANCE_URL    base URL of the service (default http://localhost:8080)
//	ATTENDANCE_TOKEN  API bearer token
package main

func main() {
	Execute()
}
