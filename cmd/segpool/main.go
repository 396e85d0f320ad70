// Command segpool inspects pool layouts and exercises pools under load.
package main

func main() {
	execute()
}
