package cache

import "time"

// startJanitor launches the background sweep goroutine when a cleanup
// interval was configured. Without one the cache relies solely on lazy
// expiration during Get.
func (c *Cache) startJanitor() {
	if c.interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.deleteExpired()
			case <-c.stopChan:
				return
			}
		}
	}()
}
