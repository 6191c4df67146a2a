package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/visa-rent-server/controllers"
	"github.com/vnkhanh/visa-rent-server/middleware"
	"github.com/vnkhanh/visa-rent-server/pagecache"
)

// Options carries the per-server pieces the routes need.
type Options struct {
	Cache       *pagecache.Cache
	LeadLimiter *middleware.IPRateLimiter
}

func SetupRoutes(r *gin.Engine, opts Options) {
	cached := middleware.CachePage(opts.Cache)
	limited := middleware.RateLimitByIP(opts.LeadLimiter)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	r.GET("/health", controllers.HealthCheck)
	r.GET("/sitemap.xml", cached, controllers.Sitemap)
	r.GET("/robots.txt", controllers.Robots)
	r.GET("/sw.js", controllers.ServiceWorker)
	r.GET("/offline.html", controllers.OfflinePage)

	api := r.Group("/api")
	{
		api.GET("/visas", cached, controllers.ListVisas)
		api.GET("/visas/:id", controllers.GetVisa)

		api.GET("/faq", cached, controllers.ListFAQ)
		api.GET("/faq/:id", controllers.GetFAQ)

		api.GET("/blog", cached, controllers.ListBlogPosts)
		api.GET("/blog/:slug", cached, controllers.GetBlogPost)

		rent := api.Group("/rent")
		{
			rent.GET("/districts", cached, controllers.ListDistricts)
			rent.GET("/amenities", cached, controllers.ListAmenities)
			rent.GET("/apartments", cached, controllers.ListApartments)
			rent.GET("/apartments/:id", controllers.GetApartment)
			rent.POST("/apartments/:id/view", controllers.RecordApartmentView)
			rent.POST("/viewing-requests", limited, controllers.CreateViewingRequest)
			rent.POST("/subscriptions", limited, controllers.CreateApartmentSubscription)
			rent.DELETE("/subscriptions/:id", controllers.DeleteApartmentSubscription)
		}

		api.POST("/contact", limited, controllers.CreateContactRequest)
		api.POST("/newsletter", limited, controllers.SubscribeNewsletter)
		api.POST("/newsletter/unsubscribe", controllers.UnsubscribeNewsletter)

		p := api.Group("/prefs")
		{
			p.GET("/favorites", controllers.GetFavorites)
			p.POST("/favorites/:id", controllers.AddFavorite)
			p.DELETE("/favorites/:id", controllers.RemoveFavorite)
			p.POST("/favorites/:id/toggle", controllers.ToggleFavorite)
			p.GET("/recent", controllers.GetRecentlyViewed)
			p.GET("/compare", controllers.GetCompare)
			p.GET("/compare/apartments", controllers.GetCompareApartments)
			p.POST("/compare/:id", controllers.AddCompare)
			p.DELETE("/compare/:id", controllers.RemoveCompare)
		}

		auth := api.Group("/auth")
		{
			auth.POST("/login", controllers.Login)
			auth.GET("/me", middleware.AuthJWT(), controllers.Me)
		}

		api.POST("/revalidate", controllers.Revalidate)

		admin := api.Group("/admin")
		admin.Use(middleware.AuthJWT(), middleware.RequireAdmin())
		{
			admin.GET("/stats", controllers.Stats)
			admin.POST("/upload", controllers.UploadFile)

			apartments := admin.Group("/apartments")
			{
				apartments.GET("", controllers.AdminListApartments)
				apartments.POST("", controllers.CreateApartment)
				apartments.GET("/:id", controllers.AdminGetApartment)
				apartments.PUT("/:id", controllers.UpdateApartment)
				apartments.PATCH("/:id", controllers.PatchApartment)
				apartments.DELETE("/:id", controllers.DeleteApartment)
				apartments.PATCH("/:id/visibility", controllers.SetApartmentVisibility)

				apartments.GET("/:id/images", controllers.ListApartmentImages)
				apartments.POST("/:id/images", controllers.AddApartmentImage)
				apartments.PUT("/:id/images/reorder", controllers.ReorderApartmentImages)
				apartments.PATCH("/:id/images/:imageId/cover", controllers.SetApartmentCover)
				apartments.DELETE("/:id/images/:imageId", controllers.DeleteApartmentImage)
			}

			districts := admin.Group("/districts")
			{
				districts.GET("", controllers.AdminListDistricts)
				districts.POST("", controllers.CreateDistrict)
				districts.GET("/:id", controllers.AdminGetDistrict)
				districts.PUT("/:id", controllers.UpdateDistrict)
				districts.DELETE("/:id", controllers.DeleteDistrict)
			}

			amenities := admin.Group("/amenities")
			{
				amenities.GET("", controllers.ListAmenities)
				amenities.POST("", controllers.CreateAmenity)
				amenities.GET("/:id", controllers.AdminGetAmenity)
				amenities.PUT("/:id", controllers.UpdateAmenity)
				amenities.DELETE("/:id", controllers.DeleteAmenity)
			}

			visas := admin.Group("/visas")
			{
				visas.GET("", controllers.AdminListVisas)
				visas.POST("", controllers.CreateVisa)
				visas.GET("/:id", controllers.AdminGetVisa)
				visas.PUT("/:id", controllers.UpdateVisa)
				visas.DELETE("/:id", controllers.DeleteVisa)
			}

			faq := admin.Group("/faq")
			{
				faq.GET("", controllers.AdminListFAQ)
				faq.POST("", controllers.CreateFAQ)
				faq.GET("/:id", controllers.AdminGetFAQ)
				faq.PUT("/:id", controllers.UpdateFAQ)
				faq.DELETE("/:id", controllers.DeleteFAQ)
			}

			blog := admin.Group("/blog")
			{
				blog.GET("", controllers.AdminListBlogPosts)
				blog.POST("", controllers.CreateBlogPost)
				blog.GET("/:id", controllers.AdminGetBlogPost)
				blog.PUT("/:id", controllers.UpdateBlogPost)
				blog.DELETE("/:id", controllers.DeleteBlogPost)
			}

			viewing := admin.Group("/viewing-requests")
			{
				viewing.GET("", controllers.ListViewingRequests)
				viewing.GET("/export", controllers.ExportViewingRequests)
				viewing.GET("/:id", controllers.GetViewingRequest)
				viewing.PATCH("/:id", controllers.UpdateViewingRequestStatus)
				viewing.DELETE("/:id", controllers.DeleteViewingRequest)
			}

			contact := admin.Group("/contact-requests")
			{
				contact.GET("", controllers.ListContactRequests)
				contact.GET("/export", controllers.ExportContactRequests)
				contact.GET("/:id", controllers.GetContactRequest)
				contact.PATCH("/:id", controllers.UpdateContactRequestStatus)
				contact.DELETE("/:id", controllers.DeleteContactRequest)
			}

			admin.GET("/newsletter", controllers.ListNewsletterSubscriptions)
			admin.DELETE("/newsletter/:id", controllers.DeleteNewsletterSubscription)
			admin.GET("/subscriptions", controllers.ListApartmentSubscriptions)
			admin.DELETE("/subscriptions/:id", controllers.AdminDeleteApartmentSubscription)
		}
	}
}
