package shopify

// ProductsQuery pages through the Admin catalog.
const ProductsQuery = `
query Products($first: Int!, $after: String) {
  shop { currencyCode }
  products(first: $first, after: $after) {
    pageInfo { hasNextPage endCursor }
    edges {
      node {
        id
        handle
        title
        description
        descriptionHtml
        vendor
        productType
        status
        updatedAt
        featuredImage { url altText }
        options { name values }
        variants(first: 100) {
          edges {
            node {
              id
              title
              sku
              availableForSale
              price
              compareAtPrice
              selectedOptions { name value }
              image { url altText }
            }
          }
        }
      }
    }
  }
}`

const cartFields = `
    id
    checkoutUrl
    totalQuantity
    cost {
      subtotalAmount { amount currencyCode }
      totalAmount { amount currencyCode }
    }`

// CartQuery fetches a Storefront cart with its first 50 lines.
const CartQuery = `
query Cart($id: ID!) {
  cart(id: $id) {` + cartFields + `
    lines(first: 50) {
      edges {
        node {
          id
          quantity
          cost { totalAmount { amount currencyCode } }
          merchandise {
            ... on ProductVariant {
              id
              title
              sku
              image { url altText }
              selectedOptions { name value }
              product { title handle }
              price { amount currencyCode }
            }
          }
        }
      }
    }
  }
}`

const CartCreateMutation = `
mutation CartCreate($input: CartInput!) {
  cartCreate(input: $input) {
    cart {` + cartFields + `
    }
    userErrors { field message }
  }
}`

const CartLinesAddMutation = `
mutation CartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart { id }
    userErrors { field message }
  }
}`

const CartLinesUpdateMutation = `
mutation CartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart { id }
    userErrors { field message }
  }
}`

const CartLinesRemoveMutation = `
mutation CartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart { id }
    userErrors { field message }
  }
}`
